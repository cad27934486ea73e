package bot

import "buyforyou-bot/internal/order"

// Изображения-подсказки в каталоге ASSETS_DIR
const (
	AssetStart      = "start.jpg"
	AssetPriceInput = "price_input.jpg"
	AssetSizeGuide  = "size_guide.jpg"
)

const (
	floodAction = "message"
	exportLimit = 1000
	// Telegram принимает не больше 10 файлов в одной группе
	mediaGroupLimit = 10
)

const (
	textWelcome = "Привет!👋🏼\n\nЯ помогу Вам рассчитать стоимость товаров и оформить заказ!\n\n" +
		"Выберите категорию, чтобы посчитать цену, или нажмите «" + order.LabelStartOrder + "»."
	textHelp = "ℹ️ Как это работает:\n\n" +
		"1. Выберите категорию и введите цену в юанях - бот посчитает стоимость в рублях.\n" +
		"2. Нажмите «" + order.LabelStartOrder + "» и пришлите фото, размер, категорию, цену и контакт.\n" +
		"3. Проверьте заказ и отправьте его менеджеру.\n\n" +
		"/start - главное меню, /cancel - начать заново, /rate - текущий курс."
	textUnknown   = "Я не понимаю эту команду. Пожалуйста, используйте меню."
	textCalcPrice = "Введите стоимость в юанях (¥):"
	textBadNumber = "Пожалуйста, введите число: стоимость в юанях."
	textDeferral  = "Такое считаем индивидуально, напишите нашему менеджеру 😊"
	textOrderNote = "Стоимость товаров этой категории рассчитает менеджер после оформления заказа."
	textDelivery  = "🚚 У нас новые условия доставки:\n" +
		"Теперь тариф 600₽/кг до Владивостока,\n" +
		"далее по тарифу CDEK/Почты России 🤍\n\n" +
		"Точную стоимость доставки Вам скажет менеджер,\n" +
		"когда товар будет во Владивостоке!"

	textAskPhoto    = "📸 Пришлите фото товара (скриншот из приложения)."
	textNeedPhoto   = "Нужна именно фотография товара."
	textAskSize     = "📏 Укажите размер товара или нажмите «Без размера»."
	textAskCategory = "🗂 Выберите категорию товара:"
	textNeedCat     = "Выберите категорию кнопкой ниже."
	textAskContact  = "📱 Оставьте контакт для связи: @username или номер телефона."
	textNeedContact = "Контакт не может быть пустым."
	textStaleButton = "Эта кнопка больше не активна."
	textUseButtons  = "Выберите действие кнопками под заказом."
	textSubmitted   = "✅ Заказ #%s отправлен менеджеру! Мы свяжемся с вами в ближайшее время."
	textPhotosLost  = "⚠️ Не удалось отправить фотографии товаров, описание заказа ниже."

	textRateSet     = "Новый курс юаня установлен: %s ₽"
	textRateCurrent = "Текущий курс юаня: %s ₽"
	textRateFormat  = "Неверный формат. Пример: set yuan 11.7"
	textNoRights    = "Недостаточно прав для изменения курса"
	textArchiveOff  = "Архив заказов отключён"
	textArchiveDown = "Архив заказов временно недоступен, попробуйте позже"
)
